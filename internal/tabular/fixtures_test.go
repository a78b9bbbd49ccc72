package tabular

const creditAgricoleExport = `Téléchargement du 15/02/2024;

M. JEAN DUPONT;
Compte de Dépôt carte n° 12345678901;
Solde au 14/02/2024 1 234,56 €;

Liste des opérations du compte entre le 01/01/2024 et le 14/02/2024;

Date;Libellé;Débit euros;Crédit euros;
01/02/2024;"PAIEMENT PAR CARTE X1234 APPLE.COM";5,99;
03/02/2024;"VIREMENT EN VOTRE FAVEUR
 
 M. DUPONT LOYER";;650,00;
05/02/2024;"CB CARREFOUR FAC 04/02   ";45,20;;
06/02/2024;"COTISATION OFFRE ESSENTIEL";;;
07/02/2024;"RETRAIT DAB 06/02 PARIS";1 000,00;;

Livret A n° 98765432109;
Solde au 14/02/2024 5 000,00 €;

Date;Libellé;Débit euros;Crédit euros;
10/02/2024;"VIREMENT DEPUIS COMPTE";;100,00;
12/02/2024;"BROKEN RECORD;5,00;
Total des opérations;1 051,19;750,00;
`

const caisseEpargneExport = `Code de la banque : 11315;Code de la guichet : 00001;
Numero de compte : 04123456789;Date de debut de telechargement : 01/01/2024;Date de fin de telechargement : 31/01/2024;
Date;Numero d'operation;Libelle;Debit;Credit;Detail;
31/01/24;0000123;CB CARREFOUR FAC 30/01;-45,20;;CB CARREFOUR FAC 30/01 ;
30/01/24;0000122;VIR SEPA SALAIRE JANVIER;;2 100,00;VIR SEPA SALAIRE JANVIER ACME ;
29/01/24;0000121;;-12,00;;PRLV SEPA SPOTIFY ;
28/01/24;0000120;FRAIS;abc;;;
Solde en fin de periode;;;;1 234,56;
`

const creditMutuelExport = `Compte : COMPTE CHEQUE EUROCOMPTE N° 00012345601
Date d'opération;Date de valeur;Débit;Crédit;Libellé;Solde
01/02/2024;01/02/2024;-5,99;;PAIEMENT CB 3101 APPLE.COM/BILL;1 228,57
02/02/2024;02/02/2024;;1 500,00;VIR SALAIRE ACME;2 728,57
Compte : LIVRET BLEU N° 00012345602
Date d'opération;Date de valeur;Débit;Crédit;Libellé;Solde
05/02/2024;05/02/2024;;50,00;VERSEMENT;550,00
`
